package dao

// SchemaStatements is the DDL applied by the migrate command, in order.
// Composite identifiers are the primary keys; no surrogate keys exist.
var SchemaStatements = []string{
	`create table if not exists dbstate (
        createdDate timestamp not null default current_timestamp,
        modifiedDate timestamp not null default current_timestamp,
        schemaVersion varchar(16) not null,
        identifier varchar(32) not null,
        primary key (identifier)
    )`,
	`create table if not exists user (
        username varchar(255) not null,
        email varchar(255) null,
        fname varchar(255) null,
        lname varchar(255) null,
        admin boolean not null default 0,
        createdBy varchar(255) not null,
        createdOn timestamp not null,
        lastModifiedBy varchar(255) not null,
        updatedOn timestamp not null,
        archived boolean not null default 0,
        archivedBy varchar(255) null,
        archivedOn timestamp null,
        primary key (username)
    )`,
	`create table if not exists organization (
        id varchar(255) not null,
        name varchar(255) not null,
        permissions json not null,
        custom json not null,
        createdBy varchar(255) not null,
        createdOn timestamp not null,
        lastModifiedBy varchar(255) not null,
        updatedOn timestamp not null,
        archived boolean not null default 0,
        archivedBy varchar(255) null,
        archivedOn timestamp null,
        primary key (id)
    )`,
	`create table if not exists project (
        id varchar(255) not null,
        orgId varchar(255) not null,
        name varchar(255) not null,
        visibility varchar(16) not null default 'private',
        permissions json not null,
        custom json not null,
        createdBy varchar(255) not null,
        createdOn timestamp not null,
        lastModifiedBy varchar(255) not null,
        updatedOn timestamp not null,
        archived boolean not null default 0,
        archivedBy varchar(255) null,
        archivedOn timestamp null,
        primary key (id),
        key ix_project_orgId (orgId)
    )`,
	`create table if not exists branch (
        id varchar(255) not null,
        projectId varchar(255) not null,
        sourceId varchar(255) null,
        name varchar(255) not null,
        tag boolean not null default 0,
        custom json not null,
        createdBy varchar(255) not null,
        createdOn timestamp not null,
        lastModifiedBy varchar(255) not null,
        updatedOn timestamp not null,
        archived boolean not null default 0,
        archivedBy varchar(255) null,
        archivedOn timestamp null,
        primary key (id),
        key ix_branch_projectId (projectId),
        key ix_branch_sourceId (sourceId)
    )`,
	`create table if not exists element (
        id varchar(255) not null,
        projectId varchar(255) not null,
        branchId varchar(255) not null,
        parentId varchar(255) null,
        sourceId varchar(255) null,
        targetId varchar(255) null,
        name varchar(255) not null,
        documentation text not null,
        type varchar(255) not null,
        custom json not null,
        createdBy varchar(255) not null,
        createdOn timestamp not null,
        lastModifiedBy varchar(255) not null,
        updatedOn timestamp not null,
        archived boolean not null default 0,
        archivedBy varchar(255) null,
        archivedOn timestamp null,
        primary key (id),
        key ix_element_branchId (branchId),
        key ix_element_parentId (parentId)
    )`,
	`create table if not exists artifact (
        id varchar(255) not null,
        projectId varchar(255) not null,
        branchId varchar(255) not null,
        filename varchar(255) not null,
        location varchar(255) not null,
        strategy varchar(32) not null,
        size bigint null,
        description varchar(255) null,
        custom json not null,
        createdBy varchar(255) not null,
        createdOn timestamp not null,
        lastModifiedBy varchar(255) not null,
        updatedOn timestamp not null,
        archived boolean not null default 0,
        archivedBy varchar(255) null,
        archivedOn timestamp null,
        primary key (id),
        key ix_artifact_branchId (branchId)
    )`,
	`create table if not exists webhook (
        id varchar(255) not null,
        reference varchar(255) not null,
        name varchar(255) not null,
        triggers json not null,
        url varchar(2047) not null,
        custom json not null,
        createdBy varchar(255) not null,
        createdOn timestamp not null,
        lastModifiedBy varchar(255) not null,
        updatedOn timestamp not null,
        archived boolean not null default 0,
        archivedBy varchar(255) null,
        archivedOn timestamp null,
        primary key (id),
        key ix_webhook_reference (reference)
    )`,
}
